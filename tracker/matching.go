package tracker

// iouDistance returns the cost matrix of 1 - IoU between every track and
// detection
func iouDistance(tracks, dets []*Track) [][]float64 {

	if len(tracks) == 0 || len(dets) == 0 {
		return nil
	}

	cost := make([][]float64, len(tracks))

	for i, t := range tracks {
		cost[i] = make([]float64, len(dets))

		for j, d := range dets {
			cost[i][j] = 1 - t.rect.IoU(d.rect)
		}
	}

	return cost
}

// fuseScore scales the IoU similarity by each detection's score, so low
// confidence detections need a closer overlap to match
func fuseScore(cost [][]float64, dets []*Track) {
	for i := range cost {
		for j := range cost[i] {
			cost[i][j] = 1 - (1-cost[i][j])*dets[j].score
		}
	}
}

// joinTracks appends the tracks of b not already present in a
func joinTracks(a, b []*Track) []*Track {

	exists := make(map[int]bool, len(a))
	res := make([]*Track, 0, len(a)+len(b))

	for _, t := range a {
		exists[t.id] = true
		res = append(res, t)
	}

	for _, t := range b {
		if !exists[t.id] {
			exists[t.id] = true
			res = append(res, t)
		}
	}

	return res
}

// subTracks returns the tracks of a whose id is not in b, keeping the order
// of a
func subTracks(a, b []*Track) []*Track {

	drop := make(map[int]bool, len(b))

	for _, t := range b {
		drop[t.id] = true
	}

	res := make([]*Track, 0, len(a))

	for _, t := range a {
		if !drop[t.id] {
			res = append(res, t)
		}
	}

	return res
}

// removeDuplicates drops overlapping tracked/lost pairs, keeping whichever
// of the two has been tracked for longer
func removeDuplicates(a, b []*Track) ([]*Track, []*Track) {

	dist := iouDistance(a, b)
	dupA := make([]bool, len(a))
	dupB := make([]bool, len(b))

	for i := range dist {
		for j := range dist[i] {
			if dist[i][j] >= 0.15 {
				continue
			}

			timeA := a[i].frameID - a[i].startFrame
			timeB := b[j].frameID - b[j].startFrame

			if timeA > timeB {
				dupB[j] = true
			} else {
				dupA[i] = true
			}
		}
	}

	var resA, resB []*Track

	for i, t := range a {
		if !dupA[i] {
			resA = append(resA, t)
		}
	}

	for j, t := range b {
		if !dupB[j] {
			resB = append(resB, t)
		}
	}

	return resA, resB
}
