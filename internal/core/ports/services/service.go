package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Organization OrganizationSvcFacade
	User         UserSvcFacade
	Account      AccountSvcFacade
	Vendor       VendorSvcFacade
	Category     CategorySvcFacade
	Transaction  TransactionSvcFacade
	Status       StatusSvcFacade
	Audit        BalanceAuditSvc
}
