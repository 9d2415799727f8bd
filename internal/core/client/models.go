package client

// Client is the holder of zero or more accounts, identified by a unique
// SSN/CPF style ID. Accounts holds the numbers of the accounts opened for
// the client; an account belongs to exactly one client.
type Client struct {
	ID        string
	Name      string
	BirthDate string
	Address   string
	Accounts  []int
}

// NewClient is the information needed to register a client.
type NewClient struct {
	ID        string
	Name      string
	BirthDate string
	Address   string
}
