package service_interfaces

import "github.com/shopspring/decimal"

type FeeService interface {
	Fee(amount decimal.Decimal) (decimal.Decimal, error)
}
