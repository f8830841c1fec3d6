package ports

type IdentityService interface {
	// GetOrCreate returns existing unchanged when set, otherwise a new identity
	// with created reported as true so the caller can persist it.
	GetOrCreate(existing string) (identity string, created bool)
}
