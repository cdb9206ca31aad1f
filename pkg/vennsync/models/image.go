package models

// Image represents an image-like object placed on a document sheet.
type Image struct {
	// Ref is the surface-specific handle of the image.
	Ref string `json:"ref"`
	// SheetID is the id of the sheet the image is placed on.
	SheetID int `json:"sheet_id"`
	// Alt is the identifier text stored on the image.
	Alt string `json:"alt"`
	// Width is the displayed width in pixels.
	Width int `json:"w"`
	// Height is the displayed height in pixels.
	Height int `json:"h"`
}

// Meta returns the display metadata of the image.
func (i Image) Meta() ImageMeta {
	return ImageMeta{Alt: i.Alt, Width: i.Width, Height: i.Height}
}

// ImageMeta is the display metadata a host may reset when image content is replaced.
type ImageMeta struct {
	// Alt is the identifier text.
	Alt string `json:"alt"`
	// Width is the displayed width in pixels.
	Width int `json:"w"`
	// Height is the displayed height in pixels.
	Height int `json:"h"`
}
