package apierror

// TitleFor returns the user-facing title for an HTTP status.
func TitleFor(status int) string {
	switch status {
	case 400:
		return "Invalid Request"
	case 401:
		return "Authentication Failed"
	case 403:
		return "Access Denied"
	case 404:
		return "Not Found"
	case 409:
		return "Conflict"
	case 429:
		return "Rate Limit Exceeded"
	case 500:
		return "Server Error"
	case 502, 503:
		return "Service Unavailable"
	default:
		return GenericTitle
	}
}
