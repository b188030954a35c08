package wizard

import (
	"strconv"
	"strings"

	"DemoPilot/utils"
)

// 校验器都是同步纯函数，除错误映射外不改任何状态。

func validateContactStep(f *Fields) ValidationErrors {
	errs := ValidationErrors{}

	if strings.TrimSpace(f.CompanyName) == "" {
		errs["company_name"] = "Company name is required"
	}
	if strings.TrimSpace(f.CompanyTitle) == "" {
		errs["company_title"] = "Company title is required"
	}
	if strings.TrimSpace(f.ContactPerName) == "" {
		errs["contact_per_name"] = "Contact person name is required"
	}
	if strings.TrimSpace(f.Address) == "" {
		errs["address"] = "Address is required"
	}

	if f.Email == "" {
		errs["email"] = "Email is required"
	} else if !utils.ValidateEmail(f.Email) {
		errs["email"] = "Email format is invalid"
	}

	if f.Mobile == "" {
		errs["mobile"] = "Mobile number is required"
	} else if !utils.ValidateMobile(f.Mobile) {
		errs["mobile"] = "Mobile number must be exactly 10 digits"
	}

	// 网址选填，填了就必须带 scheme
	if f.Website != "" && !utils.ValidateWebsite(f.Website) {
		errs["website"] = "Website must start with http:// or https://"
	}

	return errs
}

func validatePlanStep(d *Draft) ValidationErrors {
	errs := ValidationErrors{}
	f := &d.Fields

	// 自选路径离开分支视图后 Branch 会被清掉，按勾选过的服务识别
	if d.Branch == BranchCustomPlan || d.Branch == BranchCustomPricing || strings.TrimSpace(f.ServiceIDs) != "" {
		if strings.TrimSpace(f.ServiceIDs) == "" {
			errs["service_ids"] = "Select at least one service"
		}
		return errs
	}

	if f.PlanID == "" {
		errs["plan_id"] = "Choose a plan to continue"
	}
	if f.Tenure == "" {
		errs["tenure"] = "Choose a billing tenure"
	}

	return errs
}

func validateConfirmStep(d *Draft) ValidationErrors {
	errs := ValidationErrors{}
	f := &d.Fields

	if f.PricingID == "" && d.Branch != BranchCustomPricing {
		errs["pricing_id"] = "Choose a pricing option"
	}

	if f.NumUsers == "" {
		errs["num_users"] = "Number of users is required"
	} else if n, err := strconv.Atoi(f.NumUsers); err != nil || n < 1 {
		errs["num_users"] = "Number of users must be a positive number"
	}

	return errs
}

func validateDomainStep(d *Draft) ValidationErrors {
	errs := ValidationErrors{}
	domain := strings.TrimSpace(d.Fields.Domain)

	if domain == "" {
		errs["domain"] = "Domain is required"
	} else if !strings.Contains(domain, ".") || strings.ContainsAny(domain, " /") {
		errs["domain"] = "Domain format is invalid"
	}

	return errs
}

func validateSectorStep(d *Draft) ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(d.Fields.BusinessSector) == "" {
		errs["business_sector"] = "Business sector is required"
	}
	return errs
}

func validateCompanyDetailsStep(d *Draft) ValidationErrors {
	errs := ValidationErrors{}
	f := &d.Fields

	if strings.TrimSpace(f.CompanyName) == "" {
		errs["company_name"] = "Company name is required"
	}
	if strings.TrimSpace(f.CompanyDetails) == "" {
		errs["company_details"] = "Company details are required"
	}
	if f.Email != "" && !utils.ValidateEmail(f.Email) {
		errs["email"] = "Email format is invalid"
	}

	return errs
}

func validateContentStep(d *Draft) ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(d.Fields.ContentBrief) == "" {
		errs["content_brief"] = "Content brief is required"
	}
	return errs
}
