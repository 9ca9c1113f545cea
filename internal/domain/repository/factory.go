package repository

// Factory hands out the repositories backed by a single storage engine.
type Factory interface {
	Users() UserRepository
	Stores() StoreRepository
}
