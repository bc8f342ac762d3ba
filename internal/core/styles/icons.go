package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconBrand     = "\U000F0C52" // nf-md-checkbox_marked_circle_outline
	IconChecked   = "\U000F0135" // nf-md-checkbox_marked
	IconUnchecked = "\U000F0131" // nf-md-checkbox_blank_outline
	IconSelected  = "\U000F0856" // nf-md-check_bold
	IconCalendar  = ""          // nf-fa-calendar
	IconTag       = ""          // nf-fa-tag
	IconClock     = ""          // nf-fa-clock_o
	IconOverdue   = ""          // nf-fa-warning
)

// Notification icons
var (
	IconNotifySuccess = "" // nf-fa-check_circle
	IconNotifyInfo    = "" // nf-fa-info_circle
	IconNotifyWarning = "" // nf-fa-warning
	IconNotifyError   = "" // nf-fa-times_circle
)
