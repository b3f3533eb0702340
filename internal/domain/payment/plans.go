package payment

// Plan is one purchasable credit bundle. Amount is in whole dollars;
// MinorAmount returns the checkout line-item price in cents.
type Plan struct {
	ID      string
	Name    string
	Credits int
	Amount  int
}

// MinorAmount returns the plan price in minor currency units.
func (p Plan) MinorAmount() int {
	return p.Amount * 100
}

// plans is the fixed plan table. Data, not code branches, so pricing
// changes never touch the purchase flow.
var plans = map[string]Plan{
	"basic":      {ID: "basic", Name: "Basic pack", Credits: 100, Amount: 5},
	"pro":        {ID: "pro", Name: "Pro pack", Credits: 400, Amount: 19},
	"enterprise": {ID: "enterprise", Name: "Enterprise pack", Credits: 1000, Amount: 49},
}

// PlanByID looks up a plan. The second return is false for unknown ids.
func PlanByID(id string) (Plan, bool) {
	p, ok := plans[id]
	return p, ok
}

// Plans returns every purchasable plan.
func Plans() []Plan {
	out := make([]Plan, 0, len(plans))
	for _, id := range []string{"basic", "pro", "enterprise"} {
		out = append(out, plans[id])
	}
	return out
}
