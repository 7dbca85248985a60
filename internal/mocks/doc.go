// Package mocks provides function-field fakes of the service and auth
// interfaces for handler and middleware tests.
//
// Each fake exposes one Fn field per method. A nil Fn falls back to the
// zero result, so tests only wire the calls they care about:
//
//	ads := &mocks.MockAdService{
//	    GetAdFn: func(ctx context.Context, id uuid.UUID) (*service.AdDetailView, error) {
//	        return nil, store.ErrAdNotFound
//	    },
//	}
//
// Store-level mocks used by service tests live next to those tests and are
// built on testify/mock instead.
package mocks
