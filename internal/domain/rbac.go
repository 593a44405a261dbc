package domain

// EnforceRequest asks whether an actor may perform action on resource
// inside one organisation.
type EnforceRequest struct {
	ActorID        string `json:"actor_id" binding:"required"`
	OrganisationID string `json:"organisation_id" binding:"required"`
	Resource       string `json:"resource" binding:"required"`
	Action         string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
