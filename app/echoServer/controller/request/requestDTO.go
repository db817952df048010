package request

type CreateRequestReq struct {
	Title   string `json:"title" validate:"required"`
	Author  string `json:"author" validate:"required"`
	Details string `json:"details"`
}
