// Package cityrequest implements the client for the city-addition
// automation webhook.
//
// When a user's postal code has no training data yet, they can ask for the
// region to be added to the training set. The request goes to an external
// automation scenario authenticated via an API key header. The webhook is
// loosely typed: depending on the failure it answers with JSON or plain
// text, so the client parses the body according to the Content-Type header
// and surfaces the most specific error message it can find.
package cityrequest
