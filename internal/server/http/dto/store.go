package dto

// StoreRequest describes a store to create. Ratings are pointers so that
// an explicit zero is distinguishable from an omitted field.
type StoreRequest struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Rating     *float64 `json:"rating"`
	UserRating *float64 `json:"userRating"`
}

// StoreResponse is a listed store.
type StoreResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Rating     float64 `json:"rating"`
	UserRating float64 `json:"userRating"`
}

// StoreCreatedResponse acknowledges a new store.
type StoreCreatedResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status string `json:"status"`
}
