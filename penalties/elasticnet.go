package penalties

type elasticNet struct {
	Alpha  float64
	Lambda float64
}

// λ is a small value close to 0 where λ > 0,
// α is a value that controls the ratio between L1 and L2
// Regularization, where 0 ≤ α ≤ 1. α = 1 is functionally identical to L1 and α = 0 is equivalent
// to L2.
func ElasticNet(α, λ float64) *elasticNet {
	return &elasticNet{α, λ}
}

func (p *elasticNet) TypeString() string {
	return "elastic-net"
}

func (p *elasticNet) Penalize(w, grad float64) float64 {
	return grad + p.Lambda*((1-p.Alpha)*2*w+p.Alpha*sign(w))
}

func (p *elasticNet) Get() interface{} {
	return *p
}

func (p *elasticNet) Blank() interface{} {
	return p
}
