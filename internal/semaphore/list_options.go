package semaphore

import "net/url"

// ListOptions are passed straight through as query parameters; the client
// never filters or paginates on its own.
type ListOptions struct {
	Sort  string
	Order string
}

func (o ListOptions) query() string {
	if o.Sort == "" && o.Order == "" {
		return ""
	}
	v := url.Values{}
	if o.Sort != "" {
		v.Set("sort", o.Sort)
	}
	if o.Order != "" {
		v.Set("order", o.Order)
	}
	return "?" + v.Encode()
}
