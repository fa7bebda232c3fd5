package domain

// Image — изображение продукта для загрузки в объектное хранилище.
type Image struct {
	ObjectKey string
	Bytes     []byte
	MimeType  string
	Size      int64
}

func NewImage(objectKey string, data []byte, mimeType string) *Image {
	return &Image{
		ObjectKey: objectKey,
		Bytes:     data,
		MimeType:  mimeType,
		Size:      int64(len(data)),
	}
}
