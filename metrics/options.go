package metrics

// Option configures the squared-error metrics.
type Option func(*options)

type options struct {
	sampleWeight interface{}
}

// WithSampleWeight weights each sample's squared error. w must be a numeric
// sequence with one entry per sample; nil means unweighted.
func WithSampleWeight(w interface{}) Option {
	return func(o *options) {
		o.sampleWeight = w
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
