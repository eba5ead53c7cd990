// Package resilience groups the fault tolerance helpers used around the
// upstream dispatch feed and the database.
//
//   - circuitbreaker: gobreaker wrappers, including a guarded *sql.DB
//   - retry: exponential backoff with jitter for transient failures
//
//	cb := circuitbreaker.New(circuitbreaker.DispatchFetchConfig())
//	err := retry.WithBackoff(ctx, retry.DispatchFetchConfig(), func() error {
//	    _, err := circuitbreaker.Do(cb, fetch)
//	    return err
//	})
package resilience
