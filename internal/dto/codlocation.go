package dto

// CodLocationRequest is the admin create/update payload for a pickup spot
type CodLocationRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=100"`
	Building    string `json:"building" binding:"required"`
	Floor       string `json:"floor"`
	Description string `json:"description" binding:"required,max=500"`
	Active      *bool  `json:"active"`
}
