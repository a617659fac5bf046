package kiwi

// searchResponse is the Kiwi search response envelope.
type searchResponse struct {
	Data     []tripOffer `json:"data"`
	Currency string      `json:"currency"`
}

// tripOffer is one bookable trip. Virtually interlined trips combine
// carriers without an interline agreement; bags may need rechecking between
// segments and the trip is issued as separate tickets.
type tripOffer struct {
	ID                 string             `json:"id"`
	Price              float64            `json:"price"`
	BagsPrice          map[string]float64 `json:"bags_price"`
	Route              []routeSegment     `json:"route"`
	VirtualInterlining bool               `json:"virtual_interlining"`
}

// routeSegment is one flight within a trip. Departures and arrivals come in
// both UTC and station-local wall time.
type routeSegment struct {
	ID                  string  `json:"id"`
	FlyFrom             string  `json:"flyFrom"`
	FlyTo               string  `json:"flyTo"`
	CityFrom            string  `json:"cityFrom"`
	CityTo              string  `json:"cityTo"`
	LocalDeparture      string  `json:"local_departure"`
	UTCDeparture        string  `json:"utc_departure"`
	LocalArrival        string  `json:"local_arrival"`
	UTCArrival          string  `json:"utc_arrival"`
	Airline             string  `json:"airline"`
	FlightNo            int     `json:"flight_no"`
	OperatingCarrier    string  `json:"operating_carrier"`
	FareCategory        string  `json:"fare_category"`
	BagsRecheckRequired bool    `json:"bags_recheck_required"`
	OnTimePerformance   float64 `json:"on_time_performance"`
}
