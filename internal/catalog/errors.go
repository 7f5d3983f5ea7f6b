package catalog

import "errors"

var (
	// ErrUnknownService возвращается, когда услуга отсутствует в каталоге
	ErrUnknownService = errors.New("catalog: unknown service")

	// ErrUnknownStylist возвращается, когда мастер отсутствует в каталоге
	ErrUnknownStylist = errors.New("catalog: unknown stylist")

	// ErrInvalidCatalog возвращается при некорректных данных каталога
	ErrInvalidCatalog = errors.New("catalog: invalid catalog data")
)
