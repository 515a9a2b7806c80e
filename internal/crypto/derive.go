package crypto

import "context"

// lateKeyDropped is called after a late key has been zeroed.
var lateKeyDropped = func() {}

type deriveResult struct {
	key []byte
	err error
}

// DeriveContext runs a blocking derivation in its own goroutine and returns
// as soon as ctx is done. A key produced after cancellation is zeroed and
// dropped, so a cancelled unlock never leaves key material behind.
func DeriveContext(ctx context.Context, derive func() ([]byte, error)) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan deriveResult, 1)
	go func() {
		key, err := derive()
		done <- deriveResult{key: key, err: err}
	}()

	select {
	case res := <-done:
		return res.key, res.err
	case <-ctx.Done():
		go func() {
			res := <-done
			zero(res.key)
			lateKeyDropped()
		}()
		return nil, ctx.Err()
	}
}
