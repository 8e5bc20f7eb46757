package worker

import (
	"github.com/openshelf/storefront/internal/service"
)

// StartAuditWorker registers the audit log handlers on the dispatcher.
func StartAuditWorker(audit *service.AuditService) {
	if audit == nil {
		return
	}
	audit.RegisterHandlers()
}
