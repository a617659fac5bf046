package amadeus

// searchResponse is the Amadeus Flight Offers Search response envelope.
type searchResponse struct {
	Data         []offer      `json:"data"`
	Dictionaries dictionaries `json:"dictionaries"`
}

// dictionaries resolve carrier and location codes to display names.
type dictionaries struct {
	Carriers  map[string]string   `json:"carriers"`
	Locations map[string]location `json:"locations"`
}

type location struct {
	CityCode string `json:"cityCode"`
	Timezone string `json:"timezone"`
}

// offer is one flight offer. Amadeus separates "itineraries" (directions)
// from "segments" (legs); one-way offers carry a single itinerary.
type offer struct {
	ID          string           `json:"id"`
	Itineraries []offerItinerary `json:"itineraries"`
	Price       offerPrice       `json:"price"`
}

type offerItinerary struct {
	Duration string    `json:"duration"`
	Segments []segment `json:"segments"`
}

type segment struct {
	ID          string        `json:"id"`
	Departure   segmentPoint  `json:"departure"`
	Arrival     segmentPoint  `json:"arrival"`
	CarrierCode string        `json:"carrierCode"`
	Number      string        `json:"number"`
	Duration    string        `json:"duration"`
	Operating   *operatingRef `json:"operating,omitempty"`
}

type segmentPoint struct {
	IATACode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

type operatingRef struct {
	CarrierCode string `json:"carrierCode"`
}

type offerPrice struct {
	Currency string `json:"currency"`
	Total    string `json:"total"`
	Base     string `json:"base"`
}
