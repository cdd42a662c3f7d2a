package directory

import "sort"

// sortDelegates orders resolved delegates ascending by display name,
// stably, so ties keep retrieval order. Absent display names sort first.
// Always the last pipeline step; callers never observe directory-native
// ordering, which is undefined.
func sortDelegates(accounts []*DelegateAccount) {
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].DisplayName() < accounts[j].DisplayName()
	})
}

func sortPeople(accounts []*PersonAccount) {
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].DisplayName() < accounts[j].DisplayName()
	})
}

// dedupeDelegates drops entries equal (per account equality) to one
// already seen, keeping first occurrence.
func dedupeDelegates(accounts []*DelegateAccount) []*DelegateAccount {
	seen := make(map[AccountKey]struct{}, len(accounts))
	kept := accounts[:0]
	for _, a := range accounts {
		k := Key(a)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, a)
	}
	return kept
}
