package core

import "strconv"

// Rate is the reimbursed price per kWh.
const Rate = 0.2756

// ComputeCost returns the reimbursable cost for energy kWh, rounded to cents.
// The exact product is rounded once, ties to even. Zero and negative energy
// are not rejected.
func ComputeCost(energy float64) float64 {
	cost, err := strconv.ParseFloat(strconv.FormatFloat(energy*Rate, 'f', 2, 64), 64)
	if err != nil {
		return energy * Rate
	}
	return cost
}
