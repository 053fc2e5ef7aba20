package entity

// Status tracks staff follow-up on a contact. Any status may be set from any other.
type Status string

const (
	StatusInitial    Status = "initial"
	StatusInContact  Status = "in_contact"
	StatusDone       Status = "done"
	StatusNoResponse Status = "no_response"
	StatusIgnore     Status = "ignore"
)

// Statuses lists every serving status in display order.
var Statuses = []Status{StatusInitial, StatusInContact, StatusDone, StatusNoResponse, StatusIgnore}

var statusLabels = map[Status]string{
	StatusInitial:    "Initial",
	StatusInContact:  "In Contact",
	StatusDone:       "Done",
	StatusNoResponse: "No Response",
	StatusIgnore:     "Ignore",
}

var statusColors = map[Status]string{
	StatusInitial:    "bg-gray-200",
	StatusInContact:  "bg-blue-200",
	StatusDone:       "bg-green-200",
	StatusNoResponse: "bg-red-200",
	StatusIgnore:     "bg-yellow-200",
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human readable name, or the raw value when unknown.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Color returns the badge class used by the contact list page.
func (s Status) Color() string {
	if color, ok := statusColors[s]; ok {
		return color
	}
	return "bg-gray-200"
}

// Service is the category of work requested by a contact.
type Service string

const (
	ServiceWebDevelopment Service = "web_development"
	ServiceMobileApp      Service = "mobile_app"
	ServiceUIUX           Service = "ui_ux"
	ServiceConsulting     Service = "consulting"
	ServiceMaintenance    Service = "maintenance"
	ServiceOther          Service = "other"
)

// Services lists every service in display order.
var Services = []Service{
	ServiceWebDevelopment,
	ServiceMobileApp,
	ServiceUIUX,
	ServiceConsulting,
	ServiceMaintenance,
	ServiceOther,
}

var serviceLabels = map[Service]string{
	ServiceWebDevelopment: "Web Development",
	ServiceMobileApp:      "Mobile App Development",
	ServiceUIUX:           "UI/UX Design",
	ServiceConsulting:     "IT Consulting",
	ServiceMaintenance:    "Maintenance & Support",
	ServiceOther:          "Other",
}

// Valid reports whether s is one of the known services.
func (s Service) Valid() bool {
	_, ok := serviceLabels[s]
	return ok
}

// Label returns the human readable name, or the raw value when unknown.
func (s Service) Label() string {
	if label, ok := serviceLabels[s]; ok {
		return label
	}
	return string(s)
}
