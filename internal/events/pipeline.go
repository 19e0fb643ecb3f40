package events

// Event type constants for the processing pipeline.
const (
	TypeFileDiscovered    = "file.discovered"
	TypeFileClassified    = "file.classified"
	TypeTransferCompleted = "transfer.completed"
	TypeTransferFailed    = "transfer.failed"
	TypeFileCleaned       = "file.cleaned"
)

// FileDiscovered fires when the stability gate releases a file.
type FileDiscovered struct {
	BaseEvent
	SizeBytes int64 `json:"size_bytes"`
}

func NewFileDiscovered(path string, sizeBytes int64) *FileDiscovered {
	return &FileDiscovered{
		BaseEvent: NewBaseEvent(TypeFileDiscovered, path),
		SizeBytes: sizeBytes,
	}
}

// FileClassified fires after media type and language detection.
type FileClassified struct {
	BaseEvent
	MediaType      string `json:"media_type"`
	Language       string `json:"language"`
	LanguageSource string `json:"language_source"`
}

func NewFileClassified(path, mediaType, language, languageSource string) *FileClassified {
	return &FileClassified{
		BaseEvent:      NewBaseEvent(TypeFileClassified, path),
		MediaType:      mediaType,
		Language:       language,
		LanguageSource: languageSource,
	}
}

// TransferCompleted fires after a successful transfer, including the
// skipped-existing and dry-run cases.
type TransferCompleted struct {
	BaseEvent
	MediaType  string `json:"media_type"`
	Language   string `json:"language"`
	Status     string `json:"status"`
	TargetPath string `json:"target_path"`
	SizeBytes  int64  `json:"size_bytes"`
	Remuxed    bool   `json:"remuxed"`
}

func NewTransferCompleted(path, mediaType, language, status, targetPath string, sizeBytes int64, remuxed bool) *TransferCompleted {
	return &TransferCompleted{
		BaseEvent:  NewBaseEvent(TypeTransferCompleted, path),
		MediaType:  mediaType,
		Language:   language,
		Status:     status,
		TargetPath: targetPath,
		SizeBytes:  sizeBytes,
		Remuxed:    remuxed,
	}
}

// TransferFailed fires when a file exhausts its retry budget or cannot
// be resolved to a destination.
type TransferFailed struct {
	BaseEvent
	MediaType  string `json:"media_type"`
	Language   string `json:"language"`
	TargetPath string `json:"target_path"`
	Error      string `json:"error"`
}

func NewTransferFailed(path, mediaType, language, targetPath, errMsg string) *TransferFailed {
	return &TransferFailed{
		BaseEvent:  NewBaseEvent(TypeTransferFailed, path),
		MediaType:  mediaType,
		Language:   language,
		TargetPath: targetPath,
		Error:      errMsg,
	}
}

// FileCleaned fires after the source file and any emptied folders are
// removed from the download area.
type FileCleaned struct {
	BaseEvent
	RemovedDirs int `json:"removed_dirs"`
}

func NewFileCleaned(path string, removedDirs int) *FileCleaned {
	return &FileCleaned{
		BaseEvent:   NewBaseEvent(TypeFileCleaned, path),
		RemovedDirs: removedDirs,
	}
}
