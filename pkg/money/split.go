package money

const (
	SellerPercent     = 60
	InfluencerPercent = 10

	MerchantPercent = 90
)

type RevenueShare struct {
	Seller     Cents `json:"seller"`
	Influencer Cents `json:"influencer"`
	Platform   Cents `json:"platform"`
}

// Split divides gross between seller, referring influencer and platform.
// Without a referral the influencer's cut goes to the platform. Seller and
// influencer shares round down and the platform takes the remainder, so the
// shares always add up to gross: 40% without a referral, 30% with one.
func Split(gross Cents, hasReferral bool) RevenueShare {
	share := RevenueShare{Seller: gross.Percent(SellerPercent)}
	if hasReferral {
		share.Influencer = gross.Percent(InfluencerPercent)
	}
	share.Platform = gross - share.Seller - share.Influencer
	return share
}

func (s RevenueShare) Total() Cents {
	return s.Seller + s.Influencer + s.Platform
}

type MerchantShare struct {
	Merchant Cents `json:"merchant"`
	Platform Cents `json:"platform"`
}

// MerchantSplit gives the merchant 90% of a merchandise sale, rounded down,
// and the platform the rest.
func MerchantSplit(gross Cents) MerchantShare {
	merchant := gross.Percent(MerchantPercent)
	return MerchantShare{Merchant: merchant, Platform: gross - merchant}
}
