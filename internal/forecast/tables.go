package forecast

// eliteBidByRank is the authoritative qualification table for the Elite
// tournament, keyed by power rank. Values are percentages. The table is
// maintained by hand against observed qualification history; it is never
// derived from the win model.
var eliteBidByRank = [...]float64{
	1:  99,
	2:  97,
	3:  95,
	4:  93,
	5:  90,
	6:  80,
	7:  70,
	8:  60,
	9:  45,
	10: 35,
	11: 25,
	12: 15,
	13: 10,
	14: 8,
	15: 6,
	16: 4,
}

// eliteBidTail continues the table below rank 16, decreasing under 3%
var eliteBidTail = [...]float64{
	17: 2.5,
	18: 2.0,
	19: 1.5,
	20: 1.0,
}

const eliteBidFloor = 0.5

// eliteBid returns the Elite qualification probability for a power rank.
// Ranks below 1 never reach here; validation rejects them with the snapshot.
func eliteBid(rank int) float64 {
	if rank >= 1 && rank < len(eliteBidByRank) {
		return eliteBidByRank[rank]
	}
	if rank >= len(eliteBidByRank) && rank < len(eliteBidTail) {
		return eliteBidTail[rank]
	}
	return eliteBidFloor
}

// divisionConditional is the P(make division | missed Elite) step table,
// keyed by the team's position among same-classification teams excluding
// Elite qualifiers. Values are percentages.
var divisionConditional = [...]float64{
	1:  98,
	2:  95,
	3:  92,
	4:  89,
	5:  85,
	6:  77,
	7:  69,
	8:  61,
	9:  50,
	10: 40,
	11: 30,
	12: 20,
}

// divisionConditionalTail continues below position 12, decreasing under 15%
var divisionConditionalTail = [...]float64{
	13: 12,
	14: 9,
	15: 6,
	16: 3,
}

const divisionConditionalFloor = 1.0

// divisionMakeProb returns the conditional division-qualification
// probability for a position in the class-minus-Elite ordering
func divisionMakeProb(position int) float64 {
	if position >= 1 && position < len(divisionConditional) {
		return divisionConditional[position]
	}
	if position >= len(divisionConditional) && position < len(divisionConditionalTail) {
		return divisionConditionalTail[position]
	}
	return divisionConditionalFloor
}
