// Package mp4probe reads video stream metadata from MP4 containers.
package mp4probe

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/vidbanner/pkg/ports"
)

var (
	// ErrNoVideoTrack is returned when the container has no "vide" track.
	ErrNoVideoTrack = errors.New("mp4probe: no video track found")
	// ErrNoSamples is returned when the video track carries no timed samples.
	ErrNoSamples = errors.New("mp4probe: video track has no samples")
)

// ProbeFile reads the frame rate and frame count of the first video track in path.
func ProbeFile(path string) (ports.VideoInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return Probe(f)
}

// Probe reads metadata from an MP4 stream. Sample payloads are skipped,
// so only box headers and sample tables are read. The reader is rewound
// afterwards.
func Probe(reader io.ReadSeeker) (ports.VideoInfo, error) {
	mp4File, err := mp4.DecodeFile(reader, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("decode mp4: %w", err)
	}

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return ports.VideoInfo{}, fmt.Errorf("seek: %w", err)
	}

	moov := mp4File.Moov
	if moov == nil && mp4File.Init != nil {
		moov = mp4File.Init.Moov
	}
	if moov == nil {
		return ports.VideoInfo{}, fmt.Errorf("no moov box found")
	}
	trak := videoTrack(moov.Traks)
	if trak == nil {
		return ports.VideoInfo{}, ErrNoVideoTrack
	}

	if mp4File.IsFragmented() || len(mp4File.Segments) > 0 {
		return probeFragmented(mp4File, moov, trak)
	}
	return infoFromTrack(trak)
}

// infoFromTrack derives fps from the stsz sample count and the mdhd
// media duration of a progressive track.
func infoFromTrack(trak *mp4.TrakBox) (ports.VideoInfo, error) {
	mdia := trak.Mdia
	if mdia.Mdhd == nil || mdia.Minf == nil || mdia.Minf.Stbl == nil || mdia.Minf.Stbl.Stsz == nil {
		return ports.VideoInfo{}, fmt.Errorf("incomplete sample table")
	}
	return computeInfo(mdia.Mdhd.Timescale, mdia.Mdhd.Duration, uint64(mdia.Minf.Stbl.Stsz.SampleNumber))
}

// probeFragmented sums sample counts and durations from every trun of the
// video track. Durations missing from a trun come from tfhd, then trex.
func probeFragmented(mp4File *mp4.File, moov *mp4.MoovBox, trak *mp4.TrakBox) (ports.VideoInfo, error) {
	trackID := trak.Tkhd.TrackID

	var trex *mp4.TrexBox
	if moov.Mvex != nil {
		for _, t := range moov.Mvex.Trexs {
			if t.TrackID == trackID {
				trex = t
				break
			}
		}
	}

	var timescale uint32 = 1000
	if trak.Mdia.Mdhd != nil {
		timescale = trak.Mdia.Mdhd.Timescale
	}

	var samples, duration uint64
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd == nil || traf.Tfhd.TrackID != trackID {
					continue
				}
				fallback := defaultSampleDuration(traf.Tfhd, trex)
				for _, trun := range traf.Truns {
					n, d := trunTiming(trun, fallback)
					samples += n
					duration += d
				}
			}
		}
	}

	return computeInfo(timescale, duration, samples)
}

func defaultSampleDuration(tfhd *mp4.TfhdBox, trex *mp4.TrexBox) uint32 {
	if tfhd.HasDefaultSampleDuration() {
		return tfhd.DefaultSampleDuration
	}
	if trex != nil {
		return trex.DefaultSampleDuration
	}
	return 0
}

func trunTiming(trun *mp4.TrunBox, fallback uint32) (samples, duration uint64) {
	samples = uint64(trun.SampleCount())
	if !trun.HasSampleDuration() {
		return samples, samples * uint64(fallback)
	}
	for _, s := range trun.Samples {
		duration += uint64(s.Dur)
	}
	return samples, duration
}

func computeInfo(timescale uint32, duration, samples uint64) (ports.VideoInfo, error) {
	if timescale == 0 || duration == 0 || samples == 0 {
		return ports.VideoInfo{}, ErrNoSamples
	}
	seconds := float64(duration) / float64(timescale)
	return ports.VideoInfo{
		FrameRate:  float64(samples) / seconds,
		FrameCount: float64(samples),
	}, nil
}

func videoTrack(traks []*mp4.TrakBox) *mp4.TrakBox {
	for _, trak := range traks {
		if trak.Mdia != nil && trak.Mdia.Hdlr != nil && trak.Mdia.Hdlr.HandlerType == "vide" {
			return trak
		}
	}
	return nil
}
