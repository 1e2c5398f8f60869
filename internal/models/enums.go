package models

// Sentiment classifies the tone of a mention. Values outside the known set
// are kept verbatim and treated as unknown.
type Sentiment string

const (
	SentimentPositive Sentiment = "positivo"
	SentimentNeutral  Sentiment = "neutro"
	SentimentNegative Sentiment = "negativo"
)

// Badge colours shared by the list badges and the analytics pie
const (
	ColorPositive = "#16a34a"
	ColorNeutral  = "#f59e0b"
	ColorNegative = "#dc2626"
	ColorUnknown  = "#6b7280"
)

// Sentiments lists the known sentiment values in display order
func Sentiments() []Sentiment {
	return []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}
}

// IsKnown reports whether s is one of the fixed sentiment values
func (s Sentiment) IsKnown() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Color returns the badge colour for s, grey for anything unrecognised
func (s Sentiment) Color() string {
	switch s {
	case SentimentPositive:
		return ColorPositive
	case SentimentNeutral:
		return ColorNeutral
	case SentimentNegative:
		return ColorNegative
	default:
		return ColorUnknown
	}
}

func (s Sentiment) String() string {
	return string(s)
}

// Channel is the platform a mention was collected from
type Channel string

const (
	ChannelFacebook  Channel = "Facebook"
	ChannelInstagram Channel = "Instagram"
	ChannelYouTube   Channel = "YouTube"
	ChannelLinkedIn  Channel = "LinkedIn"
	ChannelX         Channel = "X (Twitter)"
	ChannelBlog      Channel = "Blog"
	ChannelSite      Channel = "Site"
)

// Channels lists the known channels in display order
func Channels() []Channel {
	return []Channel{
		ChannelFacebook,
		ChannelInstagram,
		ChannelYouTube,
		ChannelLinkedIn,
		ChannelX,
		ChannelBlog,
		ChannelSite,
	}
}

// IsKnown reports whether c is one of the fixed channel names.
// The backend remains the source of truth; unknown channels are displayed as-is.
func (c Channel) IsKnown() bool {
	for _, known := range Channels() {
		if c == known {
			return true
		}
	}
	return false
}

func (c Channel) String() string {
	return string(c)
}

// DateField selects which timestamp a date range applies to
type DateField string

const (
	DateFieldPublished DateField = "published"
	DateFieldMined     DateField = "mined"
)

// IsValid reports whether f is a supported date field
func (f DateField) IsValid() bool {
	return f == DateFieldPublished || f == DateFieldMined
}

// Label returns the column heading used for f
func (f DateField) Label() string {
	if f == DateFieldMined {
		return "Minerado em"
	}
	return "Data de publicação"
}
