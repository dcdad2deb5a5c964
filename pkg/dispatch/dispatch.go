package dispatch

// RequestKind is the classification of one user turn.
type RequestKind string

const (
	KindPlainChat        RequestKind = "plain_chat"
	KindDocumentGrounded RequestKind = "document_grounded"
	KindImageAnalysis    RequestKind = "image_analysis"
)

// Decide classifies a user turn. The priority is fixed: an image attachment
// is the strongest signal a user can give, then an active grounding
// document, then plain chat. Pure function, no I/O.
func Decide(hasImage, hasActiveDocument bool) RequestKind {
	switch {
	case hasImage:
		return KindImageAnalysis
	case hasActiveDocument:
		return KindDocumentGrounded
	default:
		return KindPlainChat
	}
}
