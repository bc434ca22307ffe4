package dto

type AddPhotoRequest struct {
	URL string `json:"url"`
}

type ReorderPhotosRequest struct {
	PhotoIDs []string `json:"photo_ids"`
}

type PhotosResponse struct {
	Photos []PhotoResponse `json:"photos"`
}
