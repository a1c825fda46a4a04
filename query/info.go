package query

import "strconv"

// Info is a typed view of the well-known stat keys.
type Info struct {
	Hostname   string   `json:"hostname"`
	HostIP     string   `json:"host_ip"`
	HostPort   int      `json:"host_port"`
	Plugins    string   `json:"plugins"`
	NumPlayers int      `json:"num_players"`
	MaxPlayers int      `json:"max_players"`
	Players    []string `json:"players"`
	GameType   string   `json:"game_type"`
	GameID     string   `json:"game_id"`
	Version    string   `json:"version"`
	Map        string   `json:"map"`
	UM         string   `json:"um"`
	Partial    bool     `json:"partial"`
}

const defaultHostPort = 25565

// Info maps the status onto Info. Missing or malformed numbers take their
// defaults.
func (s ServerStatus) Info() Info {
	players := s.Players
	if players == nil {
		players = []string{}
	}

	return Info{
		Hostname:   s.Fields["hostname"],
		HostIP:     s.Fields["hostip"],
		HostPort:   s.number("hostport", defaultHostPort),
		Plugins:    s.Fields["plugins"],
		NumPlayers: s.number("numplayers", 0),
		MaxPlayers: s.number("maxplayers", 0),
		Players:    players,
		GameType:   s.Fields["gametype"],
		GameID:     s.Fields["game_id"],
		Version:    s.Fields["version"],
		Map:        s.Fields["map"],
		UM:         s.Fields["um"],
		Partial:    s.Outcome == OutcomePartial,
	}
}

func (s ServerStatus) number(key string, def int) int {
	v, ok := s.Fields[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
