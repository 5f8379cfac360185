package models

// Prices is the externally configured price table, in whole rubles.
type Prices struct {
	Subscription8Senior  int `json:"subscription_8_senior_price" validate:"gte=0"`
	Subscription8Junior  int `json:"subscription_8_junior_price" validate:"gte=0"`
	Subscription12Senior int `json:"subscription_12_senior_price" validate:"gte=0"`
	Subscription12Junior int `json:"subscription_12_junior_price" validate:"gte=0"`
}

// DefaultPrices are used by the backend until an administrator edits them.
var DefaultPrices = Prices{
	Subscription8Senior:  4200,
	Subscription8Junior:  3800,
	Subscription12Senior: 4800,
	Subscription12Junior: 4200,
}

// For returns the standard monthly price for an age group and subscription
// type. An unset type counts as 8 sessions.
func (p Prices) For(age AgeGroup, t SubscriptionType) Money {
	senior := age == AgeGroupSenior
	switch {
	case t.OrDefault() == Subscription12 && senior:
		return Rubles(int64(p.Subscription12Senior))
	case t.OrDefault() == Subscription12:
		return Rubles(int64(p.Subscription12Junior))
	case senior:
		return Rubles(int64(p.Subscription8Senior))
	default:
		return Rubles(int64(p.Subscription8Junior))
	}
}
