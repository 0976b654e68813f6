package clients

// Repo is the persistence abstraction for registered clients. The client
// identifier is the natural key; Create must reject a duplicate identifier
// with errors.ErrUniqueConstraint rather than overwrite.
type Repo interface {
	Create(client *Client) error
	Get(clientID string) (*Client, error)
	Update(client *Client) error
	Delete(clientID string) error
	List(offset, limit int) ([]*Client, error)
}
