package pricing

import "errors"

// Locator points at a pricing document: either a locally stored one (ID) or a
// remote one (URL) that is fetched on demand and never cached authoritatively.
// Exactly one of the fields is set.
type Locator struct {
	ID  string `bson:"id,omitempty" json:"id,omitempty"`
	URL string `bson:"url,omitempty" json:"url,omitempty"`
}

// LocalLocator points at a document in the DocumentStore.
func LocalLocator(id string) Locator {
	return Locator{ID: id}
}

// RemoteLocator points at a document served at url.
func RemoteLocator(url string) Locator {
	return Locator{URL: url}
}

// IsRemote reports whether the document must be fetched.
func (l Locator) IsRemote() bool {
	return l.URL != ""
}

// Validate checks that exactly one of ID and URL is set.
func (l Locator) Validate() error {
	switch {
	case l.ID == "" && l.URL == "":
		return errors.Join(ErrInvalidLocator, errors.New("locator has neither id nor url"))
	case l.ID != "" && l.URL != "":
		return errors.Join(ErrInvalidLocator, errors.New("locator has both id and url"))
	}
	return nil
}
