package screenapi

type checkRequest struct {
	Password string `json:"password"`
}

type checkResponse struct {
	Breached bool   `json:"breached"`
	Count    uint64 `json:"count"`
}
