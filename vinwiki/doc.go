// Package vinwiki provides a client for the VINwiki vehicle history REST API.
//
// VINwiki is a social vehicle history service keyed by VIN. This package
// authenticates a user, calls the fixed set of VINwiki endpoints and turns
// the untyped JSON responses into typed records.
//
// # Architecture
//
// A call flows through the same pipeline every time:
//
//   - Validation: caller input (VIN, plate, query) is checked locally
//   - Endpoints: the logical endpoint name is resolved to a URL
//   - Transport: one HTTP round trip, bearer token attached when logged in
//   - Envelope: the {"status": "ok", ...} wrapper is checked
//   - Schema: the payload is hydrated into a typed record
//
// Hydration is driven by a static schema table (see schemas.go). Each model
// declares its fields once, with their kind: scalar, nested model, or list
// of nested models. Declared fields missing from a response keep their zero
// value and unknown keys are ignored, so VINwiki can add fields without
// breaking clients.
//
// # Usage
//
//	client, err := vinwiki.Login(ctx, username, password,
//		vinwiki.WithLogger(logger),
//		vinwiki.WithTimeout(20*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	vehicle, err := client.GetVehicle(ctx, "WBAPL33579A406957")
//	if err != nil {
//		log.Fatal(err) // only session errors end up here
//	}
//	if vehicle == nil {
//		// invalid VIN, unknown vehicle or the call failed
//	}
//
// # Error Handling
//
// Authenticate reports every failure. After that the Client methods return
// an absent result (nil or false) for anything that is not a session
// problem, which keeps "not found" and "network hiccup" on the same path
// for callers that do not care. Callers that do care use the strict view:
//
//	vehicle, err := client.Strict().GetVehicle(ctx, vin)
//	switch {
//	case errors.Is(err, vinwiki.ErrValidation):
//	case errors.Is(err, vinwiki.ErrTransport):
//	case errors.Is(err, vinwiki.ErrRemoteStatus):
//	}
//
// Remote error detail is available through errors.As with *StatusError and
// HTTP status failures through *APIError.
package vinwiki
