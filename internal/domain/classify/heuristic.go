package classify

import (
	"strings"

	"github.com/rpggio/focuslog/internal/domain/activity"
)

// NewAllowListHeuristic marks samples productive when the owner app or the
// URL host is on an allow-list. Hosts match themselves and their subdomains.
func NewAllowListHeuristic(apps, hosts []string) Heuristic {
	appSet := make(map[string]bool, len(apps))
	for _, app := range apps {
		if app = strings.ToLower(strings.TrimSpace(app)); app != "" {
			appSet[app] = true
		}
	}
	hostList := make([]string, 0, len(hosts))
	for _, host := range hosts {
		if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
			hostList = append(hostList, strings.TrimPrefix(host, "www."))
		}
	}

	return func(s activity.Sample) bool {
		if strings.TrimSpace(s.URL) != "" {
			host := activity.Hostname(s.URL)
			for _, allowed := range hostList {
				if host == allowed || strings.HasSuffix(host, "."+allowed) {
					return true
				}
			}
			return false
		}
		return appSet[strings.ToLower(strings.TrimSpace(s.OwnerName))]
	}
}
