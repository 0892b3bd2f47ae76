package domain

// CodLocation is an on-campus cash-on-delivery meeting spot,
// e.g. "Kantin Barat" in building ANGGREK.
type CodLocation struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Building    string `json:"building"`
	Floor       string `json:"floor"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}
