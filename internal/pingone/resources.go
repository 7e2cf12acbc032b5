package pingone

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// maxPages guards against a next-link loop in a misbehaving server.
const maxPages = 1000

// CreateUser provisions one user in the environment.
func (c *Client) CreateUser(ctx context.Context, user map[string]any) (err error) {
	var uri *url.URL
	if uri, err = c.composeUrl("users"); err != nil {
		return
	}
	var rq *http.Request
	if rq, err = c.newRequest(ctx, "POST", uri.String(), user); err != nil {
		return
	}
	_, err = c.executeRequest(rq)
	return
}

// ValidateUser submits the user with dryRun=true: the server runs its full
// validation and stores nothing.
func (c *Client) ValidateUser(ctx context.Context, user map[string]any) (err error) {
	var uri *url.URL
	if uri, err = c.composeUrl("users"); err != nil {
		return
	}
	uri.RawQuery = "dryRun=true"
	var rq *http.Request
	if rq, err = c.newRequest(ctx, "POST", uri.String(), user); err != nil {
		return
	}
	_, err = c.executeRequest(rq)
	return
}

// UpdateUser replaces the user's profile attributes.
func (c *Client) UpdateUser(ctx context.Context, id string, user map[string]any) (err error) {
	var uri *url.URL
	if uri, err = c.composeUrl("users", id); err != nil {
		return
	}
	var rq *http.Request
	if rq, err = c.newRequest(ctx, "PUT", uri.String(), user); err != nil {
		return
	}
	_, err = c.executeRequest(rq)
	return
}

// DeleteUser removes one user by id.
func (c *Client) DeleteUser(ctx context.Context, id string) (err error) {
	var uri *url.URL
	if uri, err = c.composeUrl("users", id); err != nil {
		return
	}
	var rq *http.Request
	if rq, err = c.newRequest(ctx, "DELETE", uri.String(), nil); err != nil {
		return
	}
	_, err = c.executeRequest(rq)
	return
}

// Users walks every user in the environment, following next links, and
// hands each raw user object to cb.
func (c *Client) Users(ctx context.Context, cb func(map[string]any)) (err error) {
	var uri *url.URL
	if uri, err = c.composeUrl("users"); err != nil {
		return
	}
	uri.RawQuery = "limit=" + strconv.Itoa(c.pageLimit)
	return c.getResources(ctx, uri.String(), "users", cb)
}

func (c *Client) getResources(ctx context.Context, first string, key string, cb func(map[string]any)) (err error) {
	var next = first
	var attempt = 0
	for next != "" {
		attempt += 1
		if attempt > maxPages {
			err = fmt.Errorf("get \"%s\" canceled: too many pages", key)
			return
		}
		var rq *http.Request
		if rq, err = c.newRequest(ctx, "GET", next, nil); err != nil {
			return
		}
		var jo map[string]any
		if jo, err = c.executeRequest(rq); err != nil {
			return
		}
		if embedded, ok := toMap(jo["_embedded"]); ok {
			if items, ok := toSlice(embedded[key]); ok {
				for _, item := range items {
					if obj, ok := toMap(item); ok {
						cb(obj)
					}
				}
			}
		}
		next = ""
		if links, ok := toMap(jo["_links"]); ok {
			if link, ok := toMap(links["next"]); ok {
				next, _ = toString(link["href"])
			}
		}
	}
	return
}

// AllUsers fetches every user into a slice.
func (c *Client) AllUsers(ctx context.Context) (users []map[string]any, err error) {
	err = c.Users(ctx, func(user map[string]any) {
		users = append(users, user)
	})
	return
}

func (c *Client) populations(ctx context.Context, cb func(id, name string)) (err error) {
	var uri *url.URL
	if uri, err = c.composeUrl("populations"); err != nil {
		return
	}
	return c.getResources(ctx, uri.String(), "populations", func(obj map[string]any) {
		var ok bool
		var id, name string
		if id, ok = toString(obj["id"]); ok {
			name, ok = toString(obj["name"])
		}
		if ok {
			cb(id, name)
		}
	})
}

// Populations returns the environment's populations keyed by name.
func (c *Client) Populations(ctx context.Context) (byName map[string]string, err error) {
	byName = make(map[string]string)
	err = c.populations(ctx, func(id, name string) {
		byName[name] = id
	})
	if err != nil {
		byName = nil
	}
	return
}

// PopulationNames returns the environment's populations keyed by id.
func (c *Client) PopulationNames(ctx context.Context) (byId map[string]string, err error) {
	byId = make(map[string]string)
	err = c.populations(ctx, func(id, name string) {
		byId[id] = name
	})
	if err != nil {
		byId = nil
	}
	return
}
