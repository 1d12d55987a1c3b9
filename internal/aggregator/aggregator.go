// Package aggregator computes per-player session statistics and group
// standings from the canonical shot table.
package aggregator

import (
	"math"
	"sort"

	"github.com/coachlab/golfmetrics/internal/config"
	"github.com/coachlab/golfmetrics/internal/model"
)

// Sessions computes one SessionStats row per (alias, session date).
// Rows come back sorted by session date then alias.
func Sessions(shots []model.Shot, policy config.Policy) []model.SessionStats {
	type key struct{ date, alias string }

	type acc struct {
		hand          string
		total         int
		clubs         map[string]bool
		driverShots   int
		fairway       int
		goodDrives    int
		goodCarrySum  float64
	}

	byKey := make(map[key]*acc)
	for _, s := range shots {
		k := key{s.SessionDate, s.Alias}
		a := byKey[k]
		if a == nil {
			a = &acc{hand: s.Hand, clubs: make(map[string]bool)}
			byKey[k] = a
		}
		a.total++
		if s.Club != "" {
			a.clubs[s.Club] = true
		}
		if !s.IsDriver {
			continue
		}
		a.driverShots++
		if !model.IsMissing(s.Offline) && math.Abs(s.Offline) <= policy.FairwayHalfWidthM {
			a.fairway++
		}
		if !model.IsMissing(s.Carry) && s.Carry > policy.GoodDriveCarryM {
			a.goodDrives++
			a.goodCarrySum += s.Carry
		}
	}

	out := make([]model.SessionStats, 0, len(byKey))
	for k, a := range byKey {
		avg := model.Missing()
		if a.goodDrives > 0 {
			avg = a.goodCarrySum / float64(a.goodDrives)
		}
		out = append(out, model.SessionStats{
			SessionDate:        k.date,
			Alias:              k.alias,
			Hand:               a.hand,
			TotalShots:         a.total,
			ClubsPlayed:        len(a.clubs),
			DriverShots:        a.driverShots,
			DriverFairwayCount: a.fairway,
			DriverGoodDrives:   a.goodDrives,
			DriverAvgCarryGood: avg,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SessionDate != out[j].SessionDate {
			return out[i].SessionDate < out[j].SessionDate
		}
		return out[i].Alias < out[j].Alias
	})
	return out
}

// Standings computes the driver comparison rows over good drives only
// and ranks players: carry descending, then average |offline| ascending,
// then smash descending. Ties keep insertion order (sort is stable).
func Standings(shots []model.Shot, policy config.Policy) []model.Standing {
	type acc struct {
		hand    string
		carry   series
		offline series
		smash   series
		back    series
		axis    series
		spinLat series
		hla     series
		vla     series
		peak    series
	}

	byAlias := make(map[string]*acc)
	var order []string
	for _, s := range shots {
		if !s.IsDriver || model.IsMissing(s.Carry) || s.Carry <= policy.GoodDriveCarryM {
			continue
		}
		a := byAlias[s.Alias]
		if a == nil {
			a = &acc{hand: s.Hand}
			byAlias[s.Alias] = a
			order = append(order, s.Alias)
		}
		a.carry.add(s.Carry)
		a.offline.addWithin(s.Offline, policy.FairwayHalfWidthM)
		a.smash.add(s.Smash)
		a.back.add(s.BackSpin)
		a.axis.add(s.SpinAxis)
		a.spinLat.add(s.SpinLat)
		a.hla.add(s.HLA)
		a.vla.add(s.VLA)
		a.peak.add(s.PeakHeight)
	}

	out := make([]model.Standing, 0, len(order))
	for _, alias := range order {
		a := byAlias[alias]
		out = append(out, model.Standing{
			Alias:         alias,
			Hand:          a.hand,
			N:             a.carry.n,
			AvgCarry:      a.carry.mean(),
			StdCarry:      a.carry.std(),
			AvgOffline:    a.offline.mean(),
			StdOffline:    a.offline.std(),
			AvgAbsOffline: a.offline.absMean(),
			FairwayPct:    a.offline.pctWithin(),
			AvgSmash:      a.smash.mean(),
			AvgBackSpin:   a.back.mean(),
			AvgSpinAxis:   a.axis.mean(),
			AvgSpinLat:    a.spinLat.mean(),
			AvgHLA:        a.hla.mean(),
			AvgVLA:        a.vla.mean(),
			AvgPeakHeight: a.peak.mean(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := compareDesc(out[i].AvgCarry, out[j].AvgCarry); c != 0 {
			return c < 0
		}
		if c := compareAsc(out[i].AvgAbsOffline, out[j].AvgAbsOffline); c != 0 {
			return c < 0
		}
		return compareDesc(out[i].AvgSmash, out[j].AvgSmash) < 0
	})
	return out
}

// Leaders identifies the best carry, accuracy and smash rows of the
// standings; any pointer may be nil when no row has that metric.
type Leaders struct {
	Carry    *model.Standing
	Accuracy *model.Standing
	Smash    *model.Standing
}

// FindLeaders scans the standings for the group-report callouts.
func FindLeaders(standings []model.Standing) Leaders {
	var l Leaders
	for i := range standings {
		s := &standings[i]
		if !model.IsMissing(s.AvgCarry) && (l.Carry == nil || s.AvgCarry > l.Carry.AvgCarry) {
			l.Carry = s
		}
		if !model.IsMissing(s.AvgAbsOffline) && (l.Accuracy == nil || s.AvgAbsOffline < l.Accuracy.AvgAbsOffline) {
			l.Accuracy = s
		}
		if !model.IsMissing(s.AvgSmash) && (l.Smash == nil || s.AvgSmash > l.Smash.AvgSmash) {
			l.Smash = s
		}
	}
	return l
}

// series accumulates one metric, skipping missing values.
type series struct {
	n      int
	sum    float64
	sumSq  float64
	absSum float64
	within int
}

func (s *series) add(v float64) {
	if model.IsMissing(v) {
		return
	}
	s.n++
	s.sum += v
	s.sumSq += v * v
	s.absSum += math.Abs(v)
}

func (s *series) mean() float64 {
	if s.n == 0 {
		return model.Missing()
	}
	return s.sum / float64(s.n)
}

// std is the population standard deviation, matching the dispersion
// figures quoted in the coach reports.
func (s *series) std() float64 {
	if s.n == 0 {
		return model.Missing()
	}
	m := s.sum / float64(s.n)
	v := s.sumSq/float64(s.n) - m*m
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v)
}

func (s *series) absMean() float64 {
	if s.n == 0 {
		return model.Missing()
	}
	return s.absSum / float64(s.n)
}

// addWithin also tracks how many values land inside ±half. Used for the
// offline series only.
func (s *series) addWithin(v, half float64) {
	if model.IsMissing(v) {
		return
	}
	s.add(v)
	if math.Abs(v) <= half {
		s.within++
	}
}

func (s *series) pctWithin() float64 {
	if s.n == 0 {
		return model.Missing()
	}
	return float64(s.within) / float64(s.n) * 100
}

// compareAsc orders missing values last.
func compareAsc(a, b float64) int {
	switch {
	case model.IsMissing(a) && model.IsMissing(b):
		return 0
	case model.IsMissing(a):
		return 1
	case model.IsMissing(b):
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareDesc(a, b float64) int { return compareAsc(b, a) }
