package broadcaster

const EventNewOrder = "new-order"

// Order is what a guest sends to a chef. Time is kept as sent so that the chef
// receives exactly the timestamp the guest produced.
type Order struct {
	Name string `json:"name" validate:"required,max=256"`
	Time string `json:"time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// Event is a server to client notification waiting in a connection's
// outbound buffer.
type Event struct {
	Name    string
	Payload any
}
