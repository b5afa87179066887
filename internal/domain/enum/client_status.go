package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ClientStatus represents whether a gym client is currently attending
type ClientStatus int

const (
	ClientStatusActive   ClientStatus = 0
	ClientStatusInactive ClientStatus = 1
)

var clientStatusNames = []string{"active", "inactive"}

func (s ClientStatus) String() string {
	if int(s) < 0 || int(s) >= len(clientStatusNames) {
		return "active"
	}
	return clientStatusNames[s]
}

// ParseClientStatus parses the wire name of a client status.
func ParseClientStatus(s string) (ClientStatus, bool) {
	i, ok := parseName(clientStatusNames, s)
	return ClientStatus(i), ok
}

func (s ClientStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ClientStatus) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName(data, clientStatusNames, "client status")
	if err != nil {
		return err
	}
	*s = ClientStatus(i)
	return nil
}

func (s ClientStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ClientStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ClientStatusActive
		return nil
	}
	*s = ClientStatus(scanInt(value))
	return nil
}
