// Package search issues and arbitrates candidate searches for a token field.
//
// A Coordinator runs in one of two modes. Without a Provider it filters a
// caller-supplied Source synchronously. With a Provider it calls it off the
// owner goroutine and accepts a finished Batch only while the live buffer
// text still matches the query the batch answers ("latest query wins").
// Superseded searches run to completion; their output is dropped.
package search
