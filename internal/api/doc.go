// Package api handles incoming HTTP requests, routing and response
// formatting for the account service. Handlers return errors instead of
// writing them; the ErrorTranslator is the single place where an error
// becomes a status code and a client-facing message.
package api
