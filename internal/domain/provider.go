package domain

// Provider is one entry in the nearby care directory.
type Provider struct {
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	DistanceKm float64 `json:"distance_km"`
	OpenNow    bool    `json:"open_now"`
	Rating     float64 `json:"rating"`
	Address    string  `json:"address,omitempty"`
}
