package middlewares

// KeyRequestID holds the request id on the gin context; error envelopes echo it back.
const KeyRequestID = "request_id"
