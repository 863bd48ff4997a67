package heapcore

// NewStaticPool allocates the pool as a single Go slice sized once at
// startup. This is the SNEK_DYNAMIC=false branch of the original design:
// the backing storage is reserved for the lifetime of the Pool and never
// resized.
func NewStaticPool(cfg Config) (*Pool, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	total := cfg.PoolSize + cfg.PoolExtra
	p := &Pool{
		cfg:   cfg,
		bytes: make([]byte, total),
	}
	p.busy = newBitmap(cfg.PoolSize, cfg.AllocShift)
	return p, nil
}
