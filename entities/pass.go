package entities

type PassType string

const (
	ExpressPass       PassType = "Express Pass"
	JuniorPass        PassType = "Junior Pass"
	RegularPass       PassType = "Regular Pass"
	StudentPass       PassType = "Student Pass"
	SeniorCitizenPass PassType = "Senior Citizen Pass"
	PWDPass           PassType = "PWD Pass"
)

// PassTypes lists the canonical pass types in display order.
var PassTypes = []PassType{
	ExpressPass,
	JuniorPass,
	RegularPass,
	StudentPass,
	SeniorCitizenPass,
	PWDPass,
}

func (p PassType) String() string {
	return string(p)
}

func (p PassType) IsKnown() bool {
	for _, known := range PassTypes {
		if p == known {
			return true
		}
	}
	return false
}

type PriceEntry struct {
	PassType PassType `json:"pass_type" db:"pass_type"`
	Price    Price    `json:"price" db:"price"`
}

// DefaultPrices returns the factory price table in canonical order.
func DefaultPrices() []PriceEntry {
	return []PriceEntry{
		{PassType: ExpressPass, Price: MustPrice("2300.00")},
		{PassType: JuniorPass, Price: MustPrice("900.00")},
		{PassType: RegularPass, Price: MustPrice("1300.00")},
		{PassType: StudentPass, Price: MustPrice("1300.00")},
		{PassType: SeniorCitizenPass, Price: MustPrice("900.00")},
		{PassType: PWDPass, Price: MustPrice("900.00")},
	}
}

// PriceTable indexes entries by pass type.
func PriceTable(entries []PriceEntry) map[PassType]Price {
	table := make(map[PassType]Price, len(entries))
	for _, entry := range entries {
		table[entry.PassType] = entry.Price
	}
	return table
}
