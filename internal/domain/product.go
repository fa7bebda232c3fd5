package domain

// DefaultProductImage — значение product_image, когда изображение не загружено.
const DefaultProductImage = "-"

// Product описывает продукт каталога.
// Цена хранится в минимальных денежных единицах без дробной части.
type Product struct {
	ID       int64
	Name     string
	Category string
	Price    int64
	Image    string
}

func NewProduct(name, category string, price int64, image string) *Product {
	if image == "" {
		image = DefaultProductImage
	}

	return &Product{
		Name:     name,
		Category: category,
		Price:    price,
		Image:    image,
	}
}
