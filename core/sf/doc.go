// Package sf deduplicates concurrent calls that ask for the same thing.
//
// While a call for a key is in flight, further calls for the same key wait
// for it and receive its result instead of running again:
//
//	var g sf.Group[State]
//	state, shared, err := g.Do(tenant+"/"+key, func() (State, error) {
//	    return fetch(ctx, tenant, key)
//	})
//
// Results are not cached; once the call returns the next Do runs again.
package sf
