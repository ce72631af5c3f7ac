package utils

// Find 找出ids对应的数据
// 说明：ids为空时返回data（全部数据），不存在的ID记录到missing中
func Find[K comparable, T any](dataMap map[K]T, data []T, ids []K) (found []T, missing []K) {
	if len(ids) == 0 {
		return data, nil
	}
	found = make([]T, 0, len(ids))
	missing = make([]K, 0)
	for _, id := range ids {
		if d, ok := dataMap[id]; ok {
			found = append(found, d)
		} else {
			missing = append(missing, id)
		}
	}
	return
}
