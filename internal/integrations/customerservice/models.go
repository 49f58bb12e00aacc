package customerservice

// Customer модель клиента из CustomerService
// Беспарольная идентичность: клиенты входят по magic-link на email,
// сами токены входа - зона ответственности CustomerService
type Customer struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// ErrorResponse модель ошибки от CustomerService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
