package service_interfaces

type SessionService interface {
	Create(username string) (string, error)
	Validate(token string) (string, error)
	Invalidate(token string)
}
