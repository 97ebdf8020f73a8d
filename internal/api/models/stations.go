package models

// StationInfo describes one selectable station.
type StationInfo struct {
	Key      string `json:"key"`
	Point    Point  `json:"point"`
	Timezone string `json:"timezone"`
}

// StationList is the response for the station selection control.
type StationList struct {
	Items []StationInfo `json:"items"`
}
