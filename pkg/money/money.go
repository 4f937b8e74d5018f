// Package money содержит денежную арифметику на фиксированной точке.
// Все округления до копеек выполняются явно в функциях этого пакета.
package money

import "github.com/shopspring/decimal"

// Scale количество знаков после запятой для денежных сумм
const Scale = 2

var (
	hundred       = decimal.NewFromInt(100)
	minutesInHour = decimal.NewFromInt(60)
)

// Round2 округляет сумму до копеек (half away from zero)
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// ClampDiscount ограничивает процент скидки диапазоном [0, 100]
func ClampDiscount(percent decimal.Decimal) decimal.Decimal {
	if percent.IsNegative() {
		return decimal.Zero
	}
	if percent.GreaterThan(hundred) {
		return hundred
	}
	return percent
}

// EffectivePrice цена после применения скидки: price * (1 - discount/100), округленная до копеек
func EffectivePrice(price decimal.Decimal, discountPercent decimal.NullDecimal) decimal.Decimal {
	if !discountPercent.Valid {
		return Round2(price)
	}
	discount := ClampDiscount(discountPercent.Decimal)
	factor := decimal.NewFromInt(1).Sub(discount.Div(hundred))
	return Round2(price.Mul(factor))
}

// LineTotal стоимость строки: unitPrice * quantity, округленная до копеек
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return Round2(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// HourlyCost стоимость интервала по почасовой ставке: pricePerHour * minutes / 60
func HourlyCost(pricePerHour decimal.Decimal, minutes int) decimal.Decimal {
	return Round2(pricePerHour.Mul(decimal.NewFromInt(int64(minutes))).Div(minutesInHour))
}

// Sum складывает суммы и округляет результат до копеек
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return Round2(total)
}
