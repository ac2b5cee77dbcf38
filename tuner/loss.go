package tuner

import "math"

// logistic probability p = 1/(1+exp(-k*E))
func prob(k, eval float64) float64 {
	z := k * eval
	if z > 40 {
		return 1
	}
	if z < -40 {
		return 0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

// positionGrad returns the squared error of one sample and dL/dE.
func positionGrad(k, eval, label float64) (loss, dLdE float64) {
	p := prob(k, eval)
	diff := p - label
	return diff * diff, 2.0 * diff * k * p * (1.0 - p)
}

func stmSign(stm int) float64 {
	if stm == 1 {
		return 1
	}
	return -1
}
