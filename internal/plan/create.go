package plan

import (
	"errors"
	"fmt"
	"strconv"

	"subtool/internal/ffprobe"
	"subtool/internal/language"
)

// CreateRequest describes a new MKV assembled from separate inputs.
type CreateRequest struct {
	// VideoPath is the base video container; its embedded streams all carry
	// over.
	VideoPath string
	// Video is the probe of VideoPath, used to count embedded tracks.
	Video ffprobe.Result
	// AudioPaths and SubtitlePaths are attached in order after the video.
	AudioPaths    []string
	SubtitlePaths []string
	// DefaultAudio / DefaultSubtitle select the container-default track by
	// ordinal across the concatenated track list: embedded tracks of the
	// base video in probe order, then attached files in add order. Nil
	// leaves dispositions untouched.
	DefaultAudio    *int
	DefaultSubtitle *int
	Output          string
}

// CreateMKV plans a full-passthrough mux of every stream from every input
// into a new container.
func CreateMKV(req CreateRequest) (Plan, error) {
	if req.VideoPath == "" {
		return Plan{}, errors.New("create mkv: video file is required")
	}
	if req.Output == "" {
		return Plan{}, errors.New("create mkv: output path is required")
	}

	inputs := make([]string, 0, 1+len(req.AudioPaths)+len(req.SubtitlePaths))
	inputs = append(inputs, req.VideoPath)
	inputs = append(inputs, req.AudioPaths...)
	inputs = append(inputs, req.SubtitlePaths...)

	maps := make([]Selector, len(inputs))
	for i := range inputs {
		maps[i] = Selector{Input: i}
	}

	embeddedAudio := req.Video.CountType(ffprobe.TypeAudio)
	embeddedSubs := req.Video.CountType(ffprobe.TypeSubtitle)
	audioTotal := embeddedAudio + len(req.AudioPaths)
	subTotal := embeddedSubs + len(req.SubtitlePaths)

	var dispositions []Disposition
	var err error
	if dispositions, err = appendDefaults(dispositions, "a", req.DefaultAudio, audioTotal); err != nil {
		return Plan{}, err
	}
	if dispositions, err = appendDefaults(dispositions, "s", req.DefaultSubtitle, subTotal); err != nil {
		return Plan{}, err
	}

	// Attached subtitle files have no container language tag; derive one from
	// the file name so players can label the track.
	var metadata []Metadata
	for i, path := range req.SubtitlePaths {
		lang := subtitleFileLanguage(path)
		if lang == "" {
			continue
		}
		spec := "s:s:" + strconv.Itoa(embeddedSubs+i)
		metadata = append(metadata,
			Metadata{Spec: spec, Key: "language", Value: language.ToISO3(lang)},
			Metadata{Spec: spec, Key: "title", Value: language.DisplayName(lang)},
		)
	}

	return Plan{
		Inputs:       inputs,
		Maps:         maps,
		CodecArgs:    []string{"-c", "copy"},
		Dispositions: dispositions,
		Metadata:     metadata,
		Output:       req.Output,
	}, nil
}

// appendDefaults flags the chosen track ordinal default and explicitly clears
// the flag on every other track of that type.
func appendDefaults(list []Disposition, typeLetter string, chosen *int, total int) ([]Disposition, error) {
	if chosen == nil {
		return list, nil
	}
	if *chosen < 0 || *chosen >= total {
		return nil, fmt.Errorf("create mkv: default %s track %d out of range (%d tracks)", typeLetter, *chosen, total)
	}
	for i := 0; i < total; i++ {
		value := "0"
		if i == *chosen {
			value = "default"
		}
		list = append(list, Disposition{Type: typeLetter, Rel: i, Value: value})
	}
	return list, nil
}
