package core

import "github.com/datatrails/go-datatrails-common/logger"

type options struct {
	capacity   int64
	alignment  int
	strictKeys bool
	log        logger.Logger
}

func defaultOptions() options {
	return options{capacity: DefaultBucketCount}
}

type Option func(*options)

// WithCapacity sets the requested bucket count for a new depot. It is rounded
// up to the next entry of the prime table and ignored when opening an
// existing file.
func WithCapacity(n int64) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithAlignment sets the initial padding policy. See SetAlignment.
func WithAlignment(n int) Option {
	return func(o *options) {
		o.alignment = n
	}
}

// WithStrictKeys makes Put refuse to overwrite a record whose stored key
// differs from the new key but shares its bucket and secondary hash.
// Without it such a record is silently replaced, which is what other depot
// writers do.
func WithStrictKeys() Option {
	return func(o *options) {
		o.strictKeys = true
	}
}

func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}
