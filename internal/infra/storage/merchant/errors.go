package merchant

import "errors"

var (
	// ErrMerchantNotFound возвращается, когда продавец не найден
	ErrMerchantNotFound = errors.New("merchant.repository: merchant not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("merchant.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("merchant.repository: failed to scan row")
)
