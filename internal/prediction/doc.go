// Package prediction implements the HTTP client for the rent prediction
// service.
//
// The service exposes two JSON endpoints: POST /predict returns an
// estimated cold rent for a set of apartment attributes, and GET
// /model-info returns metadata about the currently deployed champion
// model. Errors are classified into typed categories (network, timeout,
// HTTP, parse) so callers can decide how to present them. Requests are
// single-shot: the caller resubmits manually, there is no retry layer.
package prediction
