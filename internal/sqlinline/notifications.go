package sqlinline

const QInsertNotification = `--sql 5b35b0cc-8a46-4a4c-bf8c-8a1fed21b141
insert into notifications(id, recipient_id, message, category, read, created_at)
values ($1::uuid, $2::uuid, $3::text, $4::text, false, $5::timestamptz);
`

const QListNotifications = `--sql a3d6700d-2a07-47a7-9549-b8a9c62f6334
select id, recipient_id, message, category, read, created_at
from notifications
where recipient_id = $1::uuid
  and (not $2::boolean or read = false)
order by created_at desc
limit $3::int;
`

const QMarkNotificationRead = `--sql 44eb5e2f-0153-493a-9cac-d714c6e6f4f9
update notifications
set read = true
where id = $1::uuid and recipient_id = $2::uuid;
`
